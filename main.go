package main

import (
	"os"

	"github.com/Emmanuel-Guerreiro/agente-consulta-examenes/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
