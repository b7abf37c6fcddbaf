// Command hash-gen prints the bcrypt hash of an admin API key for
// ADMIN_API_KEY_HASH.
package main

import (
	"fmt"
	"log"
	"os"

	"charter-ops.backend/pkg/crypto"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatal("usage: hash-gen <api-key>")
	}
	hash, err := crypto.HashAPIKey(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(hash)
}
