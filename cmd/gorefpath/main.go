package main

import "github.com/dbsmedya/gorefpath/cmd/gorefpath/cmd"

func main() {
	cmd.Execute()
}
