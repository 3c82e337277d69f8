// Command padelctl is the operator tool: schema setup, catalog seeding and admin accounts.
package main

func main() {
	Execute()
}
