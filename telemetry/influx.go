// Package telemetry reports run statistics to InfluxDB. Reporting is
// best-effort: it is disabled without INFLUX_ADDR and failures never
// affect the run that produced the stats.
package telemetry

import (
	"os"
	"time"

	"github.com/google/uuid"
	client "github.com/influxdata/influxdb1-client/v2"

	"github.com/optionlabs/screener/logger"
)

const database = "screener"

func getInfluxClient() client.Client {
	influxURL := os.Getenv("INFLUX_ADDR")
	if influxURL == "" {
		return nil
	}

	influxUser := os.Getenv("INFLUX_USER")
	influxPassword := os.Getenv("INFLUX_PASSWORD")

	influx, err := client.NewHTTPClient(client.HTTPConfig{
		Addr:     influxURL,
		Username: influxUser,
		Password: influxPassword,
		Timeout:  (time.Millisecond * 1000 * 10),
	})
	if err != nil {
		logger.Errorf("Could not build influx client: %v\n", err)
		return nil
	}
	return influx
}

// ReportScreenerRun writes one point per screening run.
func ReportScreenerRun(tickers int, rows int, snapshotKey string, elapsed time.Duration) {
	writePoint("screener_run",
		map[string]string{"run_id": uuid.New().String()},
		map[string]interface{}{
			"tickers":      tickers,
			"rows":         rows,
			"snapshot_key": snapshotKey,
			"elapsed_ms":   elapsed.Milliseconds(),
		})
}

// ReportLabelingRun writes one point per labeling run.
func ReportLabelingRun(labeled int, archived int, winRate float64, elapsed time.Duration) {
	writePoint("labeling_run",
		map[string]string{"run_id": uuid.New().String()},
		map[string]interface{}{
			"labeled":    labeled,
			"archived":   archived,
			"win_rate":   winRate,
			"elapsed_ms": elapsed.Milliseconds(),
		})
}

func writePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	influx := getInfluxClient()
	if influx == nil {
		return
	}
	defer influx.Close()

	bp, _ := client.NewBatchPoints(client.BatchPointsConfig{
		Database:  database,
		Precision: "us",
	})
	pt, err := client.NewPoint(measurement, tags, fields, time.Now())
	if err != nil {
		logger.Errorf("Could not build %v point: %v\n", measurement, err)
		return
	}
	bp.AddPoint(pt)
	if err := client.Client.Write(influx, bp); err != nil {
		logger.Errorf("Could not write %v point: %v\n", measurement, err)
	}
}
