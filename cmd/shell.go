package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Sesión de estudio interactiva en la terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		application, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer application.store.Close(context.Background())

		reader := bufio.NewReader(os.Stdin)

		fmt.Print("Legajo: ")
		legajo, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		legajo = strings.TrimSpace(legajo)
		if legajo == "" {
			return fmt.Errorf("se necesita un legajo para iniciar la sesión")
		}

		session, err := application.sessions.Get(ctx, legajo)
		if err != nil {
			return err
		}

		fmt.Println("Listo. Escribí tu consulta (salir para terminar).")
		for {
			fmt.Print("> ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return nil
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			switch strings.ToLower(line) {
			case "salir", "exit", "quit":
				fmt.Println("¡Hasta la próxima!")
				return nil
			}

			response := application.orchestrator.HandleUtterance(ctx, session, line)
			fmt.Println(response)
			fmt.Println()

			if ctx.Err() != nil {
				return nil
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
