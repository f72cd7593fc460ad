package main

import "github.com/llehouerou/listentwo/cmd"

func main() {
	cmd.Execute()
}
