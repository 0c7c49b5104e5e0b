package main

import "github.com/smartplace/idrole/cmd/idrole/cmd"

func main() {
	cmd.Execute()
}
