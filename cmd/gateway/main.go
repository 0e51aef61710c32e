// cmd/gateway/main.go
package main

import (
	"finflow/gateway"
)

// @title           Finflow Gateway API
// @version         1.0
// @description     Public edge gateway for the finflow personal-finance services.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	gateway.Run()
}
