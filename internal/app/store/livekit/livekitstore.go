// internal/app/store/livekit/livekitstore.go
package livekitstore

import (
	"github.com/dalemusser/opsconsole/internal/app/store/records"
	"github.com/dalemusser/opsconsole/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store groups the LiveKit agent-console tables.
type Store struct {
	Agents    records.Repository[models.LiveKitAgent]
	Sessions  records.Repository[models.LiveKitSession]
	Jobs      records.Repository[models.LiveKitJob]
	Workers   records.Repository[models.LiveKitWorker]
	MCPTools  records.Repository[models.LiveKitMCPTool]
	TestCases records.Repository[models.LiveKitTestCase]
}

func New(db *mongo.Database, obs records.Observer) *Store {
	return &Store{
		Agents:    records.Open[models.LiveKitAgent](db, records.TableLiveKitAgents, obs),
		Sessions:  records.Open[models.LiveKitSession](db, records.TableLiveKitSessions, obs),
		Jobs:      records.Open[models.LiveKitJob](db, records.TableLiveKitJobs, obs),
		Workers:   records.Open[models.LiveKitWorker](db, records.TableLiveKitWorkers, obs),
		MCPTools:  records.Open[models.LiveKitMCPTool](db, records.TableLiveKitMCPTools, obs),
		TestCases: records.Open[models.LiveKitTestCase](db, records.TableLiveKitTestCases, obs),
	}
}
