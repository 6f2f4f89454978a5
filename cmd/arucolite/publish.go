package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"time"

	mqtt "github.com/soypat/natiu-mqtt"
	"github.com/spf13/cobra"

	"tinygo.org/x/arucolite"
)

func newPublishCmd() *cobra.Command {
	var framePath string
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Detect markers in one frame and publish the results to an MQTT broker",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("arucolite: loading config: %w", err)
			}
			if fc.MQTT.Broker == "" {
				return fmt.Errorf("arucolite: config is missing [mqtt].broker")
			}
			det, err := arucolite.New(fc.toDetectorConfig())
			if err != nil {
				return fmt.Errorf("arucolite: building detector: %w", err)
			}
			return publishFrame(det, framePath, fc.MQTT)
		},
	}
	cmd.Flags().StringVar(&framePath, "frame", "", "PGM frame to detect markers in")
	cmd.MarkFlagRequired("frame")
	return cmd
}

func publishFrame(det *arucolite.Detector, framePath string, cfg mqttConfig) error {
	f, err := os.Open(framePath)
	if err != nil {
		return err
	}
	defer f.Close()

	pix, _, _, err := readPGM(f)
	if err != nil {
		return fmt.Errorf("arucolite: reading %s: %w", framePath, err)
	}
	if err := det.Process(pix); err != nil {
		return err
	}

	payload, err := json.Marshal(det.Results())
	if err != nil {
		return err
	}

	conn, err := net.DialTimeout("tcp", cfg.Broker, 5*time.Second)
	if err != nil {
		return fmt.Errorf("arucolite: dialing broker %s: %w", cfg.Broker, err)
	}
	defer conn.Close()

	rxBuf := make([]byte, 4096)
	client := mqtt.NewClient(mqtt.ClientConfig{
		Decoder: mqtt.DecoderNoAlloc{UserBuffer: rxBuf},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var varConn mqtt.VariablesConnect
	varConn.SetDefaultMQTT([]byte("arucolite-cli"))
	if err := client.Connect(ctx, conn, &varConn); err != nil {
		return fmt.Errorf("arucolite: mqtt connect: %w", err)
	}

	pub := mqtt.VariablesPublish{
		TopicName: []byte(cfg.Topic),
		QoS:       mqtt.QoS0,
	}
	if err := client.PublishPayload(pub, payload); err != nil {
		return fmt.Errorf("arucolite: mqtt publish: %w", err)
	}
	return nil
}
