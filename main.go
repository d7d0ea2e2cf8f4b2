package main

import "github.com/blindermanupwork/property-management-automation-sub007/cmd"

func main() {
	cmd.Execute()
}
