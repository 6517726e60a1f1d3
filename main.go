package main

import (
	"os"

	"github.com/AllenNeuralDynamics/wandb-result-access/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
