// Package mining is the brute-force frequent itemset and association rule
// engine.
//
// A mining pass is a single, synchronous pipeline:
//
//	Database            parsed transactions and their item universe
//	GenerateCandidates  every non-empty subset of the universe, by size
//	CountSupport        superset counts for each candidate
//	FilterFrequent      minimum-support cutoff
//	GenerateRules       antecedent/consequent splits, confidence cutoff
//
// Nothing is pruned between candidate generation and counting: a candidate
// exists whether or not its subsets turned out frequent, so the cost is
// 2^n - 1 candidates for n distinct items. BruteForce.MaxItems caps n.
//
// Other engines (see the apriori and fpgrowth packages) implement the Miner
// interface and share NewSupportRecord and GenerateRules, so results from any
// engine can be compared item for item.
//
// Example usage:
//
//	db := mining.NewDatabase([][]string{
//		{"Milk", "Bread"},
//		{"Milk", "Eggs"},
//	})
//	res, err := mining.Mine(db, mining.SupportFraction(0.5), 0.6)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, r := range res.Rules {
//		fmt.Println(r)
//	}
package mining
