// Command evpop explores the Electric Vehicle Population dataset.
package main

import "github.com/dbsmedya/evpop/cmd/evpop/cmd"

func main() {
	cmd.Execute()
}
