// main is the command-line entrypoint for the skillsift analyzer.
package main

import (
	"github.com/skillsift/skillsift/cmd"
	"github.com/skillsift/skillsift/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("%v", err)
	}
}
