// @title           subtrackr API
// @version         1.0
// @description     Multi-tenant subscription and vendor spend tracking API (Swagger documentation).
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:4000
// @BasePath        /

package main

import "subtrackr_backend/internal/app"

func main() {
	app.Run()
}
