// main.go
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "go-shopping",
	Short: "Shop backend: products, cart, checkout, orders and sold products",
	Long: `go-shopping serves the shop API over a document store.

Backends are chosen with environment variables (or a .env file):
  STORE_BACKEND  mongo | firestore | memory
  BLOB_BACKEND   gridfs | disk
  PREFS_BACKEND  redis | memory
  MAIL_PROVIDER  postmark | sendgrid | log`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
