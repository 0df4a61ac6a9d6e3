// Package hive reads Windows NT registry hive files (REGF format).
//
// The package is built for forensic work on hives of unknown provenance:
// every offset, size, and count read from the file is validated before use,
// corruption is contained to the branch it occurs in, and advisory findings
// (checksum mismatches, dirty sequence numbers, truncated data) are collected
// as warnings instead of failing the whole parse.
//
// Open a hive, then navigate from the root key:
//
//	h, err := hive.Open("SOFTWARE", hive.Options{})
//	if err != nil {
//		return err
//	}
//	defer h.Close()
//
//	root, err := h.Root()
//	if err != nil {
//		return err
//	}
//	run, err := root.LookupPath(`Microsoft\Windows\CurrentVersion\Run`)
//	...
//
// Walk visits the whole tree lazily and keeps going past damaged branches:
//
//	h.Walk(func(s hive.Step) bool {
//		if s.Err != nil {
//			log.Printf("skipping cell 0x%x: %v", s.Offset, s.Err)
//			return true
//		}
//		fmt.Println(s.Key.Name())
//		return true
//	})
//
// The package never writes: transaction logs are not replayed and dirty
// hives are parsed as-is, with the inconsistency reported via Warnings.
package hive
