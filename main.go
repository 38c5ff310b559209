package main

import (
	"context"
	"fmt"
	"os"

	_ "storefront/docs"
)

//go:generate swag init -g main.go -o docs --outputTypes go

// @title Storefront API
// @version 1.0
// @description Local catalog, remote catalog search and a per-session cart.
// @host localhost:8082
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
