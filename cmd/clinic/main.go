// Package main is the clinicmate terminal client.
package main

import "github.com/clinicmate/clinicmate/cmd/clinic/command"

func main() {
	command.Execute()
}
