package main

import "nudge_backend/internal/app"

func main() {
	app.Run()
}
