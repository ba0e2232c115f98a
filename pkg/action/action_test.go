package action

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestToResponse(t *testing.T) {
	deploymentID := uuid.New()
	a := Action{
		ID:           uuid.New(),
		DeploymentID: deploymentID,
		ActionType:   "deployment.create",
		Target:       Target{Kind: TargetDeployment, ID: deploymentID.String()},
		Status:       Status{Kind: StatusPending},
	}
	resp := a.ToResponse()
	assert.Equal(t, a.ID, resp.ID)
	assert.Equal(t, TargetDeployment, resp.TargetKind)
	assert.Equal(t, StatusPending, resp.Status)
}
