package main

import "github.com/nguyentranbao-ct/shopping-search/cmd"

func main() {
	cmd.Execute()
}
