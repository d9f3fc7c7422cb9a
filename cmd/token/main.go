// token emite un JWT firmado con JWT_SECRET para un usuario o servicio.
// Sirve para dar al servicio de entregas un token de rol sistema.
//
// Uso: go run ./cmd/token <user_id> <rol> [minutos]
// Roles: admin | bodeguero | vendedor | sistema
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jhoicas/stock-master/pkg/config"
	"github.com/jhoicas/stock-master/pkg/jwt"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "uso: token <user_id> <rol> [minutos]")
		os.Exit(2)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}

	userID, role := os.Args[1], os.Args[2]
	switch role {
	case "admin", "bodeguero", "vendedor", "sistema":
	default:
		fmt.Fprintf(os.Stderr, "Rol desconocido: %s\n", role)
		os.Exit(2)
	}
	minutes := cfg.JWT.Expiration
	if len(os.Args) > 3 {
		if minutes, err = strconv.Atoi(os.Args[3]); err != nil || minutes <= 0 {
			fmt.Fprintf(os.Stderr, "Minutos inválidos: %s\n", os.Args[3])
			os.Exit(2)
		}
	}

	tok, err := jwt.Generate(cfg.JWT.Secret, userID, role, cfg.JWT.Issuer, minutes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
