package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/brizzai/hotel-console/internal/authapi"
	"github.com/brizzai/hotel-console/internal/config"
	"github.com/brizzai/hotel-console/internal/contract"
	"github.com/brizzai/hotel-console/internal/requester"
	"github.com/brizzai/hotel-console/internal/services"
)

var (
	openAPIFile    string
	serviceName    string
	exclusionsFile string
)

var contractCmd = &cobra.Command{
	Use:   "contract",
	Short: "Check the console's routes against a service's OpenAPI document",
	Long: `Contract compares every route the console calls on one service with that
service's Swagger 2.0 or OpenAPI 3 document and lists operations, query
parameters and body fields the document does not declare.`,
	Args: cobra.NoArgs,
	RunE: runContract,
}

func init() {
	contractCmd.Flags().StringVar(&openAPIFile, "openapi", "", "Path to the Swagger/OpenAPI file")
	contractCmd.Flags().StringVar(&serviceName, "service", "auth", fmt.Sprintf("Service to check (%s)", strings.Join(serviceNames(), "|")))
	contractCmd.Flags().StringVar(&exclusionsFile, "exclusions", "", "Path to a YAML file of routes to skip")
}

func serviceNames() []string {
	names := []string{"auth"}
	for name := range services.Routes() {
		names = append(names, name)
	}
	sort.Strings(names[1:])
	return names
}

// serviceRoutes returns the routes the console calls on name and the endpoint
// they are resolved against.
func serviceRoutes(cfg *config.Config, name string) ([]*requester.RouteConfig, config.EndpointConfig, error) {
	endpoints := map[string]config.EndpointConfig{
		"auth":         cfg.Endpoints.Auth,
		"hotels":       cfg.Endpoints.Hotels,
		"rooms":        cfg.Endpoints.Rooms,
		"bookings":     cfg.Endpoints.Bookings,
		"availability": cfg.Endpoints.Availability,
	}
	endpoint, ok := endpoints[name]
	if !ok {
		return nil, config.EndpointConfig{}, fmt.Errorf("unknown service %q, expected one of %s", name, strings.Join(serviceNames(), ", "))
	}
	if name == "auth" {
		return authapi.Routes(), endpoint, nil
	}
	return services.Routes()[name], endpoint, nil
}

func runContract(cmd *cobra.Command, args []string) error {
	if openAPIFile == "" {
		return errors.New("OpenAPI file is required, you must supply it with --openapi")
	}
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	routes, endpoint, err := serviceRoutes(cfg, serviceName)
	if err != nil {
		return err
	}
	base, err := url.Parse(endpoint.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL for %s: %w", serviceName, err)
	}

	var checker *contract.Checker
	app := fx.New(
		fx.NopLogger,
		contract.Module,
		fx.Populate(&checker),
	)
	if err := app.Err(); err != nil {
		return err
	}

	if err := checker.Init(openAPIFile, exclusionsFile); err != nil {
		return fmt.Errorf("error parsing OpenAPI file: %w", err)
	}
	report, err := checker.Check(strings.TrimSuffix(base.Path, "/"), routes)
	if err != nil {
		return err
	}

	pterm.Info.Printfln("%s %s: checked %s routes, skipped %s.",
		report.Title, report.Version,
		pterm.White(report.Checked), pterm.White(report.Skipped))
	if report.OK() {
		pterm.Success.Printfln("No mismatches found for %s.", serviceName)
		return nil
	}
	for _, f := range report.Findings {
		pterm.Warning.Println(f.String())
	}
	pterm.Error.Printfln("%s mismatches found for %s.", pterm.LightRed(len(report.Findings)), serviceName)
	os.Exit(3)
	return nil
}
