package main

import "github.com/terraconstructs/haroldo/cmd/haroldoctl/cmd"

func main() {
	cmd.Execute()
}
