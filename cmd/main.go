package main

import (
	api "Chirp"
)

func main() {
	api.Run()
}
