package main

import (
	"os"
	_ "time/tzdata"

	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
