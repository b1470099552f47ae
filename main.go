package main

import "sentimentbot/internal/app"

func main() {
	app.Main()
}
