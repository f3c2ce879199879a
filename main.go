package main

import "github.com/donely-api/cmd"

func main() {
	cmd.Execute()
}
