// Command purrmoji renders, converts and copies emoji from the installed
// emoji packages.
package main

import "os"

func main() {
	os.Exit(execute(os.Args[1:]))
}
