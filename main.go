package main

import "github.com/df07/go-tile-raytracer/cmd"

func main() {
	cmd.Execute()
}
