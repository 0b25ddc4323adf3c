package main

import (
	"github.com/joho/godotenv"

	"attendance-backend/cmd"
)

func main() {
	godotenv.Load()
	cmd.Execute()
}
