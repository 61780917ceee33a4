package main

import "fittrack-backend/cmd"

func main() {
	cmd.Run()
}
