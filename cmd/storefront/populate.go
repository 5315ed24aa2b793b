package main

import (
	"os"

	"github.com/deppfellow/storefront/internal/config"
	"github.com/deppfellow/storefront/internal/repository"
	"github.com/deppfellow/storefront/internal/server"
	"github.com/deppfellow/storefront/internal/service"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newPopulateCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "populate",
		Short: "Replace every product with the contents of a JSON file",
		Long: "Validates the file against the product schema, deletes every stored product and inserts the file's products.\n" +
			"Without --file the bundled sample catalogue is used.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, loggerService, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer loggerService.Shutdown()

			if cfg.Database.Driver == config.DriverMemory {
				log.Warn().Msg("populating the in-memory store, the data is discarded when the command exits")
			}

			data := service.SampleCatalogue()
			if file != "" {
				if data, err = os.ReadFile(file); err != nil {
					err = errors.Wrap(err, "read seed file")
					log.Error().Err(err).Str("file", file).Msg("populate failed")
					return err
				}
			}

			srv, err := server.New(cmd.Context(), cfg, &log, loggerService)
			if err != nil {
				log.Error().Err(err).Msg("failed to connect")
				return err
			}
			defer func() { _ = srv.Close(cmd.Context()) }()

			repos, err := repository.NewRepositories(srv)
			if err != nil {
				return err
			}

			result, err := service.NewSeedService(srv, repos.Products).Populate(cmd.Context(), data)
			if err != nil {
				log.Error().Err(err).Msg("populate failed")
				return err
			}

			log.Info().
				Int64("deleted", result.Deleted).
				Int("inserted", result.Inserted).
				Msg("products populated")
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "path of the products JSON file")
	return cmd
}
