// Package watcher re-mines transaction files as they change.
//
// The Watcher subscribes to filesystem events for a data directory with
// fsnotify. Writes, creates and renames of *.csv files are collected into a
// pending set and handed to a Handler once per tick, so an editor that
// rewrites a file several times in a burst triggers a single re-import.
//
// Example usage:
//
//	w, err := watcher.New(dataDir, func(paths []string) error {
//		for _, p := range paths {
//			if _, _, err := sc.ImportFile(p); err != nil {
//				return err
//			}
//		}
//		return nil
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := w.Start(); err != nil {
//		log.Fatal(err)
//	}
//	defer w.Stop()
package watcher
