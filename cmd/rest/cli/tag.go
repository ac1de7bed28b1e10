package cli

import (
	"notabene-be/internal/dto"
	"notabene-be/internal/repository"
	"notabene-be/internal/service"
	"notabene-be/pkg/database"
	"notabene-be/pkg/logger"

	"github.com/spf13/cobra"
)

func NewTagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage the tag registry",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>...",
		Short: "Register one or more tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTagService(cmd, func(tags service.ITagService) error {
				for _, name := range args {
					res, err := tags.Create(cmd.Context(), &dto.CreateTagRequest{Name: name})
					if err != nil {
						return err
					}
					if res.Created {
						cmd.Printf("Registered %s\n", res.Name)
					} else {
						cmd.Printf("%s already exists\n", res.Name)
					}
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTagService(cmd, func(tags service.ITagService) error {
				names, err := tags.GetAll(cmd.Context())
				if err != nil {
					return err
				}
				for _, name := range names {
					cmd.Println(name)
				}
				return nil
			})
		},
	})

	return cmd
}

func withTagService(cmd *cobra.Command, fn func(service.ITagService) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := database.ConnectDB(cmd.Context(), cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		return err
	}
	defer db.Close()

	tagRepository := repository.NewTagRepository(db)
	return fn(service.NewTagService(tagRepository, service.SystemClock, log))
}
