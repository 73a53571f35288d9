package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"adyen-checkout-backend/internal/config"
	"adyen-checkout-backend/internal/domains/paymentmean/job"
	"adyen-checkout-backend/internal/domains/paymentmean/model"
	"adyen-checkout-backend/pkg/container"
)

type importOptions struct {
	sync        bool
	triggeredBy string
}

type enqueueResult struct {
	TaskID string `json:"taskId" yaml:"taskId"`
	Queue  string `json:"queue" yaml:"queue"`
}

func newImportCmd(root *rootOptions) *cobra.Command {
	opts := &importOptions{}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import Adyen payment methods into the store's payment means",
		Long: `By default the import is enqueued for the worker, exactly like the admin
endpoint. With --sync it runs in this process and prints one result per method.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.sync {
				return runImport(cmd, root.output)
			}
			return enqueueImport(cmd, root.output, opts.triggeredBy)
		},
	}

	cmd.Flags().BoolVar(&opts.sync, "sync", false, "run the import inline instead of enqueueing it")
	cmd.Flags().StringVar(&opts.triggeredBy, "triggered-by", "checkoutctl", "recorded in the task payload")

	return cmd
}

func enqueueImport(cmd *cobra.Command, format, triggeredBy string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer client.Close()

	task, err := job.NewImportPaymentMethodsTask(triggeredBy)
	if err != nil {
		return err
	}

	info, err := client.EnqueueContext(cmd.Context(), task)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		return errors.New("an import is already queued or running")
	}
	if err != nil {
		return fmt.Errorf("failed to enqueue import: %w", err)
	}

	return render(cmd.OutOrStdout(), format, enqueueResult{TaskID: info.ID, Queue: info.Queue}, enqueueTable)
}

func runImport(cmd *cobra.Command, format string) error {
	c, err := container.NewContainer()
	if err != nil {
		return err
	}
	defer c.Cleanup()

	results, err := c.Importer.Import(cmd.Context())
	if err != nil {
		return err
	}

	response := model.NewImportResponse(results)
	if err := render(cmd.OutOrStdout(), format, response, importTable); err != nil {
		return err
	}

	if response.Failed > 0 {
		return fmt.Errorf("%d of %d payment methods failed to import", response.Failed, len(results))
	}
	return nil
}

func enqueueTable(data interface{}) ([]string, [][]string) {
	result := data.(enqueueResult)
	return []string{"TASK ID", "QUEUE"}, [][]string{{result.TaskID, result.Queue}}
}

func importTable(data interface{}) ([]string, [][]string) {
	response := data.(model.ImportResponse)

	lines := make([][]string, 0, len(response.Results))
	for _, result := range response.Results {
		id := ""
		if result.PaymentMeanID != nil {
			id = strconv.Itoa(*result.PaymentMeanID)
		}
		lines = append(lines, []string{result.Identifier, result.Status, id, result.Error})
	}
	return []string{"IDENTIFIER", "STATUS", "PAYMENT MEAN", "ERROR"}, lines
}
