// ProCheck - Azure Tenant Health Dashboard
// Scan. Score. Report.
package main

func main() {
	Execute()
}
