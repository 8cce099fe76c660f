package handler

import (
	"habittracker/repository"
	"habittracker/usecase"
	"habittracker/utils"

	"github.com/gin-gonic/gin"
)

// RolloverHandler triggers one rollover sweep on demand. The scheduled run
// covers normal operation; this endpoint exists for recovery after downtime.
func RolloverHandler(c *gin.Context) {
	svc := &usecase.RolloverService{
		UsersRepo: repository.GetUserRepo(utils.MongoClient),
	}

	report, err := svc.Run(c.Request.Context())
	if err != nil {
		utils.StoreUnavailable(c)
		return
	}

	utils.Success(c, report)
}
