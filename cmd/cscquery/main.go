// Command cscquery searches the Copernicus Data Space catalogue from the command line.
package main

import "github.com/MrChebur/Copernicus-OData-wrapper/cmd/cscquery/cmd"

func main() {
	cmd.Execute()
}
