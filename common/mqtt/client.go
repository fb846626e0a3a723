package mqtt

import (
	"fmt"
	"time"

	"github.com/UMEZAWADAN/SD-5/common/config"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// Client paho 客户端封装，只用于发布保存通知
type Client struct {
	client paho.Client
	config *config.MQTTConfig
}

// NewClient 连接 broker
func NewClient(cfg *config.MQTTConfig) (*Client, error) {
	opts := paho.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetConnectTimeout(5 * time.Second)

	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return &Client{client: client, config: cfg}, nil
}

// Publish 发布到配置的 topic
func (c *Client) Publish(payload []byte) error {
	token := c.client.Publish(c.config.Topic, c.config.QoS, false, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", c.config.Topic, token.Error())
	}
	return nil
}

// Disconnect 断开连接（等待 250ms 发送剩余消息）
func (c *Client) Disconnect() {
	c.client.Disconnect(250)
}
