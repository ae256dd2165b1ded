package main

import "github.com/phamquocan24/steganography/cmd"

func main() {
	cmd.Execute()
}
