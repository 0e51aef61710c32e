// cmd/ledger/main.go
package main

import (
	"finflow/ledger"
)

func main() {
	ledger.Run()
}
