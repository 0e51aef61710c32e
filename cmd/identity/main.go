// cmd/identity/main.go
package main

import (
	"finflow/identity"
)

func main() {
	identity.Run()
}
