// One-off: go run scripts/genhash.go <password>
// Prints a bcrypt hash for seeding an admin user by hand:
//
//	INSERT INTO users (username, email, password_hash) VALUES ('admin', 'admin@example.com', '<hash>');
//	INSERT INTO user_roles (user_id, role_id) SELECT u.id, r.id FROM users u, roles r WHERE u.username = 'admin';
package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	password := "admin"
	if len(os.Args) > 1 {
		password = os.Args[1]
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		panic(err)
	}
	fmt.Print(string(h))
}
