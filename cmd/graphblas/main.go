package main

import "k3l.io/go-graphblas/cmd/graphblas/cmd"

func main() {
	cmd.Execute()
}
