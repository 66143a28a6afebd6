package main

import "studypack-backend/internal/cli"

func main() {
	cli.Execute()
}
