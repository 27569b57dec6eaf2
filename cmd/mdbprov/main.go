package main

import "github.com/mongodb/mongodb-kube-provisioner/pkg/cli"

func main() {
	cli.Execute()
}
