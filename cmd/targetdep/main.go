package main

import "github.com/goplus/targetdep/cmd/targetdep/internal"

func main() {
	internal.Execute()
}
