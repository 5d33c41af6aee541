package main

import "github.com/videodiary/diary-api/cmd"

// @title           Video Diary API
// @version         1.0.0
// @description     An API for trimming videos into diary entries with thumbnails, storage, and search
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
// @schemes         http
func main() {
	cmd.Execute()
}
