package main

import "github.com/unitykit/unity-guid-rewriter/cmd"

func main() {
	cmd.Execute()
}
