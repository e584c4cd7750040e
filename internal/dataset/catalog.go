package dataset

import (
	"crypto/md5"
	"fmt"
	"math/big"
	"path/filepath"
	"strings"

	"github.com/blackwell-systems/basketmine/internal/mining"
)

// DefaultTransactions is the number of transactions generated per store.
const DefaultTransactions = 25

// Store is a retailer with its item catalogue and the item combinations its
// customers commonly buy together.
type Store struct {
	Name     string
	Items    []mining.Item
	Patterns [][]mining.Item
}

var catalog = []Store{
	{
		Name: "Amazon",
		Items: []mining.Item{
			"Laptop", "Mouse", "Keyboard", "Monitor", "Headphones",
			"USB_Cable", "Webcam", "External_HDD", "Phone_Charger",
			"HDMI_Cable", "Router", "RAM", "SSD", "Graphics_Card", "Microphone",
		},
		Patterns: [][]mining.Item{
			{"Laptop", "Mouse", "Keyboard"},
			{"Monitor", "HDMI_Cable"},
			{"Headphones", "USB_Cable"},
			{"External_HDD", "USB_Cable"},
			{"Router", "HDMI_Cable"},
			{"Laptop", "Mouse", "Keyboard", "Monitor"},
			{"RAM", "SSD"},
			{"Graphics_Card", "Monitor"},
			{"Webcam", "Microphone", "Headphones"},
			{"Phone_Charger", "USB_Cable"},
		},
	},
	{
		Name: "BestBuy",
		Items: []mining.Item{
			"TV", "Soundbar", "Gaming_Console", "Controller", "Smart_Watch",
			"Tablet", "Earbuds", "Phone_Case", "Screen_Protector", "Power_Bank",
			"Bluetooth_Speaker", "Drone", "Camera", "Tripod", "Memory_Card",
		},
		Patterns: [][]mining.Item{
			{"TV", "Soundbar", "HDMI_Cable"},
			{"Gaming_Console", "Controller", "TV"},
			{"Smart_Watch", "Phone_Case"},
			{"Tablet", "Screen_Protector", "Phone_Case"},
			{"Earbuds", "Phone_Case"},
			{"Camera", "Tripod", "Memory_Card"},
			{"Bluetooth_Speaker", "Power_Bank"},
			{"Drone", "Memory_Card"},
			{"Controller", "Gaming_Console"},
			{"Smart_Watch", "Earbuds"},
		},
	},
	{
		Name: "Walmart",
		Items: []mining.Item{
			"Milk", "Bread", "Eggs", "Butter", "Cheese", "Cereal", "Coffee",
			"Tea", "Sugar", "Flour", "Rice", "Pasta", "Tomato_Sauce",
			"Olive_Oil", "Salt", "Pepper", "Chicken", "Beef",
		},
		Patterns: [][]mining.Item{
			{"Milk", "Bread", "Eggs"},
			{"Butter", "Cheese", "Milk"},
			{"Cereal", "Milk"},
			{"Coffee", "Sugar"},
			{"Tea", "Sugar"},
			{"Flour", "Sugar", "Eggs"},
			{"Rice", "Chicken"},
			{"Pasta", "Tomato_Sauce", "Olive_Oil"},
			{"Bread", "Butter", "Eggs"},
			{"Chicken", "Beef", "Salt", "Pepper"},
		},
	},
	{
		Name: "Target",
		Items: []mining.Item{
			"T_Shirt", "Jeans", "Sneakers", "Socks", "Jacket", "Hat",
			"Backpack", "Sunglasses", "Watch", "Belt", "Wallet", "Scarf",
			"Gloves", "Sweater", "Dress",
		},
		Patterns: [][]mining.Item{
			{"T_Shirt", "Jeans"},
			{"Sneakers", "Socks"},
			{"Jacket", "Hat", "Scarf"},
			{"Backpack", "Sunglasses"},
			{"Watch", "Belt", "Wallet"},
			{"T_Shirt", "Jeans", "Sneakers"},
			{"Gloves", "Scarf", "Hat"},
			{"Sweater", "Jeans"},
			{"Dress", "Sunglasses"},
			{"Belt", "Wallet"},
		},
	},
	{
		Name: "Costco",
		Items: []mining.Item{
			"Paper_Towels", "Toilet_Paper", "Detergent", "Dish_Soap",
			"Shampoo", "Toothpaste", "Trash_Bags", "Batteries",
			"Light_Bulbs", "Water_Bottles", "Snacks_Box", "Frozen_Pizza",
			"Rotisserie_Chicken", "Muffins", "Nuts_Pack",
		},
		Patterns: [][]mining.Item{
			{"Paper_Towels", "Toilet_Paper"},
			{"Detergent", "Dish_Soap"},
			{"Shampoo", "Toothpaste"},
			{"Trash_Bags", "Batteries"},
			{"Light_Bulbs", "Batteries"},
			{"Water_Bottles", "Snacks_Box"},
			{"Frozen_Pizza", "Snacks_Box"},
			{"Rotisserie_Chicken", "Muffins"},
			{"Nuts_Pack", "Water_Bottles"},
			{"Paper_Towels", "Toilet_Paper", "Detergent"},
		},
	},
}

// Catalog returns the built-in stores in generation order.
func Catalog() []Store {
	out := make([]Store, len(catalog))
	copy(out, catalog)
	return out
}

// LookupStore finds a built-in store by name, ignoring case.
func LookupStore(name string) (Store, bool) {
	for _, s := range catalog {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Store{}, false
}

// FileName is the CSV file name used for a store's transactions.
func FileName(store string) string {
	return store + "_transactions.csv"
}

// Generate returns n deterministic transactions for s. Transaction i starts
// from pattern i mod len(Patterns); the MD5 digest of "<name>_<i>", read as
// an unsigned integer h, then adds up to h mod 4 catalogue items
// Items[(h+j) mod len(Items)] that are not already in the basket.
func Generate(s Store, n int) []Transaction {
	if n <= 0 || len(s.Patterns) == 0 {
		return nil
	}

	txs := make([]Transaction, 0, n)
	four := big.NewInt(4)
	for i := 0; i < n; i++ {
		base := s.Patterns[i%len(s.Patterns)]
		items := make([]mining.Item, len(base), len(base)+3)
		copy(items, base)

		sum := md5.Sum([]byte(fmt.Sprintf("%s_%d", s.Name, i)))
		h := new(big.Int).SetBytes(sum[:])
		extra := new(big.Int).Mod(h, four).Int64()

		if len(s.Items) > 0 {
			size := big.NewInt(int64(len(s.Items)))
			for j := int64(0); j < extra; j++ {
				idx := new(big.Int).Add(h, big.NewInt(j))
				idx.Mod(idx, size)
				item := s.Items[idx.Int64()]
				if !containsItem(items, item) {
					items = append(items, item)
				}
			}
		}

		txs = append(txs, Transaction{ID: transactionID(i), Items: items})
	}
	return txs
}

// GenerateAll writes n transactions for every built-in store into dir and
// returns the written paths.
func GenerateAll(dir string, n int) ([]string, error) {
	paths := make([]string, 0, len(catalog))
	for _, s := range catalog {
		path := filepath.Join(dir, FileName(s.Name))
		if err := Save(path, Generate(s, n)); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func containsItem(items []mining.Item, item mining.Item) bool {
	for _, it := range items {
		if it == item {
			return true
		}
	}
	return false
}
