// qrsend posts a webhook payload to a running qrserver, prints the JSON
// response, and saves the returned QR code image.
package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ryandol1/qrserver/internal/models"
)

func main() {
	host := flag.String("host", "http://127.0.0.1:8080", "Server base URL")
	output := flag.String("output", "qr_code.png", "Path to save the QR code image")
	dryRun := flag.Bool("dry-run", false, "Print the payload instead of sending it")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: qrsend [flags] <unique_id> <final_url>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	payload, err := json.MarshalIndent(models.WebhookRequest{
		UniqueID: flag.Arg(0),
		FinalURL: flag.Arg(1),
	}, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *dryRun {
		fmt.Println(string(payload))
		return
	}

	if err := send(*host, payload, *output); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func send(host string, payload []byte, output string) error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(strings.TrimRight(host, "/")+"/webhook", "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	fmt.Printf("Status: %d\n", resp.StatusCode)
	var indented bytes.Buffer
	if err := json.Indent(&indented, raw, "", "  "); err != nil {
		fmt.Println(string(raw))
	} else {
		fmt.Println(indented.String())
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	var result models.WebhookResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if result.QRCodeBase64 == "" {
		fmt.Println("No QR code returned in response.")
		return nil
	}

	image, err := base64.StdEncoding.DecodeString(result.QRCodeBase64)
	if err != nil {
		return fmt.Errorf("decode qr_code_base64: %w", err)
	}
	if err := os.WriteFile(output, image, 0o644); err != nil {
		return err
	}
	fmt.Printf("Saved QR code to %s\n", output)
	return nil
}
