package kafka

import (
	"context"

	"orders/internal/adapters/contracts"

	"github.com/segmentio/kafka-go"
)

// CommandSender writes commands to the commands topic keyed by order id.
type CommandSender struct {
	writer MessageWriter
}

func NewCommandSender(writer MessageWriter) *CommandSender {
	return &CommandSender{writer: writer}
}

// Send encodes cmds and writes them in one batch.
func (s *CommandSender) Send(ctx context.Context, cmds ...contracts.Command) error {
	msgs := make([]kafka.Message, 0, len(cmds))
	for _, cmd := range cmds {
		payload, err := contracts.EncodeCommand(cmd)
		if err != nil {
			return err
		}

		msgs = append(msgs, kafka.Message{
			Key:   []byte(cmd.Key()),
			Value: payload,
			Headers: []kafka.Header{
				{Key: "commandType", Value: []byte(cmd.Type())},
				{Key: "commandId", Value: []byte(cmd.ID())},
			},
		})
	}

	if len(msgs) == 0 {
		return nil
	}
	return s.writer.WriteMessages(ctx, msgs...)
}

func (s *CommandSender) Close() error {
	return s.writer.Close()
}
