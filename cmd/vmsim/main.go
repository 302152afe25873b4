// Command vmsim replays page access traces on a simulated paged virtual
// memory subsystem.
package main

import "github.com/joho/godotenv"

func main() {
	// A .env file can hold VMSIM_* defaults for the flags. Running without
	// one is fine.
	_ = godotenv.Load()

	Execute()
}
