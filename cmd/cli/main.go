package main

import (
	"github.com/muhzarfan/backend-cttn/cmd/cli/auth"
	"github.com/muhzarfan/backend-cttn/cmd/cli/notes"
	"github.com/muhzarfan/backend-cttn/cmd/cli/root"
)

func main() {
	auth.InitAuth(root.RootCmd)
	notes.InitNotes(root.RootCmd)
	root.Execute()
}
