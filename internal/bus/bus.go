// 包 bus：消息总线直通发布器；不参与渲染流水线
package bus

import (
	"github.com/nats-io/nats.go"

	"showme/internal/logger"
)

// Producer：NATS 连接的薄封装
type Producer struct {
	nc *nats.Conn
}

// Connect：建立总线连接
func Connect(url string) (*Producer, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	logger.L().Info("bus_connected", "url", url)
	return &Producer{nc: nc}, nil
}

// Publish：透传发布，不做重试与封包
func (p *Producer) Publish(subject string, data []byte) error {
	return p.nc.Publish(subject, data)
}

func (p *Producer) Close() { p.nc.Close() }
