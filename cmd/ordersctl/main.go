// Command ordersctl publishes order commands to the commands topic.
//
//	ordersctl create -item 2:100.00:USD [-item ...] [-order <uuid>] [-repeat 2]
//	ordersctl cancel -order <uuid> [-reason "changed my mind"]
//
// -repeat sends the same command several times, which is handy to watch the
// deduplication guard drop the copies.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"orders/cmd"
	"orders/internal/adapters/contracts"
	kafkaout "orders/internal/adapters/out/kafka"
	"orders/internal/core/domain/model/kernel"
	kafkaclient "orders/internal/pkg/kafka"

	"github.com/shopspring/decimal"
)

const sendTimeout = 10 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "ordersctl:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: ordersctl create|cancel [flags]")
	}

	configs, err := cmd.LoadConfig(".env")
	if err != nil {
		return err
	}

	cmds, err := buildCommands(args[0], args[1:])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	client := kafkaclient.NewClient(configs.KafkaBrokers)
	sender := kafkaout.NewCommandSender(client.NewWriter(configs.KafkaCommandsTopic))
	defer sender.Close()

	if err := sender.Send(ctx, cmds...); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	for _, c := range cmds {
		fmt.Printf("sent %s command %s for order %s\n", c.Type(), c.ID(), c.Key())
	}
	return nil
}

func buildCommands(name string, args []string) ([]contracts.Command, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	orderID := fs.String("order", "", "order id, generated when empty for create")
	reason := fs.String("reason", "", "cancellation reason")
	repeat := fs.Int("repeat", 1, "send the same command this many times")
	var items itemsFlag
	fs.Var(&items, "item", "line item quantity:price:currency[:productId], repeatable")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *repeat < 1 {
		return nil, errors.New("-repeat must be at least 1")
	}

	var command contracts.Command
	switch name {
	case "create":
		id := kernel.NewUUID()
		if *orderID != "" {
			var err error
			if id, err = kernel.UUIDFromString(*orderID); err != nil {
				return nil, fmt.Errorf("-order: %w", err)
			}
		}
		if len(items) == 0 {
			items = itemsFlag{{
				ProductID: kernel.NewUUID().String(),
				Quantity:  2,
				Price:     contracts.NewPrice(decimal.RequireFromString("100.00")),
				Currency:  "USD",
			}}
		}
		command = contracts.NewCreateOrderCommand(id, items)
	case "cancel":
		id, err := kernel.UUIDFromString(*orderID)
		if err != nil {
			return nil, fmt.Errorf("-order: %w", err)
		}
		command = contracts.NewCancelOrderCommand(id, *reason)
	default:
		return nil, fmt.Errorf("unknown command %q", name)
	}

	cmds := make([]contracts.Command, 0, *repeat)
	for range *repeat {
		cmds = append(cmds, command)
	}
	return cmds, nil
}
