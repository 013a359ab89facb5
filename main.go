package main

import "ai-navigation/backend/internal/cmd"

func main() {
	cmd.Execute()
}
