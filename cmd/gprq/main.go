package main

import "github.com/LegacyCodeHQ/gpr2go/cmd"

func main() {
	cmd.Execute()
}
