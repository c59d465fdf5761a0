package main

import "github.com/killallgit/corpus-api/cmd"

// @title           corpus-api
// @version         1.0.0
// @description     Upload, link and manage audio recordings and their annotation texts
// @contact.name    API Support
// @contact.url     https://github.com/killallgit/corpus-api
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
// @schemes         http https
func main() {
	cmd.Execute()
}
