// Package main is the garage CLI: browse the catalog, manage favorites and
// the compare list, score tunability and seed the catalog database.
package main

func main() {
	Execute()
}
