package v1

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/flowcast/backend/internal/httputil"
	"github.com/flowcast/backend/internal/importer"
	"github.com/flowcast/backend/internal/importer/parser/csvledger"
	"github.com/flowcast/backend/internal/models"
	fc_uuid "github.com/flowcast/backend/internal/uuid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ryanuber/go-glob"
)

// Policies for records that fail validation during an import.
const (
	onErrorSkip  = "skip"
	onErrorAbort = "abort"
)

type ImportQuery struct {
	AccountID fc_uuid.UUID `form:"accountId" binding:"required"` // ID of the account to import the transactions for
	OnError   string       `form:"onError"`                      // What to do with invalid records: "skip" them or "abort" the import. Defaults to "abort".
}

type ImportPreviewQuery struct {
	AccountID fc_uuid.UUID `form:"accountId" binding:"required"` // ID of the account to import the transactions for
}

type ImportPreviewList struct {
	Data  []importer.TransactionPreview `json:"data"`                                                          // List of transaction previews
	Error *string                       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// ImportResult reports the outcome of a committed import.
type ImportResult struct {
	Created []Transaction                 `json:"created"` // Transactions that were created
	Skipped []importer.TransactionPreview `json:"skipped"` // Records that were skipped, with the reason
}

type ImportResultResponse struct {
	Data  *ImportResult `json:"data"`                                                          // The import result
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// getUploadedFile returns the form file and handles potential errors.
func getUploadedFile(c *gin.Context, suffix string) (multipart.File, error) {
	formFile, err := c.FormFile("file")
	if formFile == nil {
		return nil, errNoFilePost
	}

	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(formFile.Filename, suffix) {
		return nil, fmt.Errorf("%w: %s", errWrongFileSuffix, suffix)
	}

	f, err := formFile.Open()
	if err != nil {
		return nil, err
	}

	return f, nil
}

// duplicateTransactions finds existing transactions with the same import hash
// on the same account and records their IDs on the preview.
func duplicateTransactions(preview *importer.TransactionPreview, accountID uuid.UUID) {
	var duplicates []models.Transaction
	models.DB.
		Where(models.Transaction{
			ImportHash: preview.Transaction.ImportHash,
			AccountID:  accountID,
		}).
		Find(&duplicates)

	// When there are no resources, we want an empty list, not null
	duplicateIDs := make([]uuid.UUID, 0)
	for _, duplicate := range duplicates {
		duplicateIDs = append(duplicateIDs, duplicate.ID)
	}
	preview.DuplicateTransactionIDs = duplicateIDs
}

// applyImportRules assigns a category using the first matching rule.
//
// The raw category label of the record is matched first, the note second.
// Rules come from the database in priority order, so the first match wins.
func applyImportRules(preview *importer.TransactionPreview, rules []models.ImportRule) {
	for _, rule := range rules {
		if glob.Glob(rule.Match, preview.RawCategory) || glob.Glob(rule.Match, preview.Transaction.Note) {
			categoryID := rule.CategoryID
			preview.Transaction.CategoryID = &categoryID
			preview.ImportRuleID = rule.ID
			return
		}
	}
}

// buildPreviews parses the uploaded file and enriches each record with
// duplicates and category suggestions.
func buildPreviews(c *gin.Context, accountID fc_uuid.UUID) ([]importer.TransactionPreview, error) {
	var account models.Account
	err := models.DB.First(&account, accountID.UUID).Error
	if err != nil {
		return nil, err
	}

	f, err := getUploadedFile(c, ".csv")
	if err != nil {
		return nil, err
	}

	previews, err := csvledger.Parse(f, account)
	if err != nil {
		return nil, err
	}

	var rules []models.ImportRule
	err = models.DB.Order("priority ASC, match ASC").Find(&rules).Error
	if err != nil {
		return nil, err
	}

	for i := range previews {
		if previews[i].Error != "" {
			continue
		}

		duplicateTransactions(&previews[i], account.ID)
		applyImportRules(&previews[i], rules)
	}

	return previews, nil
}

// RegisterImportRoutes registers the routes for imports.
func RegisterImportRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsImport)
		r.GET("", GetImport)
		r.POST("", ImportCSV)

		r.OPTIONS("/preview", OptionsImportPreview)
		r.POST("/preview", ImportCSVPreview)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs.
// @Tags			Import
// @Success		204
// @Router			/v1/import [options]
func OptionsImport(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs.
// @Tags			Import
// @Success		204
// @Router			/v1/import/preview [options]
func OptionsImportPreview(c *gin.Context) {
	httputil.OptionsPost(c)
}

type ImportResponse struct {
	Links ImportLinks `json:"links"` // Links for the import API
}

type ImportLinks struct {
	CSV     string `json:"csv" example:"https://example.com/api/v1/import"`             // URL of the CSV ledger import endpoint
	Preview string `json:"preview" example:"https://example.com/api/v1/import/preview"` // URL of the CSV ledger preview endpoint
}

// @Summary		Import API overview
// @Description	Returns general information about the import endpoints
// @Tags			Import
// @Produce		json
// @Success		200	{object}	ImportResponse
// @Router			/v1/import [get]
func GetImport(c *gin.Context) {
	c.JSON(http.StatusOK, ImportResponse{
		Links: ImportLinks{
			CSV:     c.GetString(string(models.DBContextURL)) + "/v1/import",
			Preview: c.GetString(string(models.DBContextURL)) + "/v1/import/preview",
		},
	})
}

// @Summary		Preview CSV ledger import
// @Description	Parses a CSV ledger export and returns the transactions that would be created, including duplicates and category suggestions. Does not write anything.
// @Tags			Import
// @Accept			multipart/form-data
// @Produce		json
// @Success		200			{object}	ImportPreviewList
// @Failure		400			{object}	ImportPreviewList
// @Failure		404			{object}	ImportPreviewList
// @Failure		500			{object}	ImportPreviewList
// @Param			file		formData	file	true	"File to import"
// @Param			accountId	query		string	true	"ID of the account to import the transactions for"
// @Router			/v1/import/preview [post]
func ImportCSVPreview(c *gin.Context) {
	var query ImportPreviewQuery
	err := c.BindQuery(&query)
	if err != nil {
		s := errAccountIDParameter.Error()
		c.JSON(http.StatusBadRequest, ImportPreviewList{
			Error: &s,
		})
		return
	}

	previews, err := buildPreviews(c, query.AccountID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportPreviewList{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, ImportPreviewList{Data: previews})
}

// @Summary		Import CSV ledger
// @Description	Parses a CSV ledger export and creates the transactions. Records that duplicate an existing transaction are always skipped. Invalid records abort the import unless onError=skip is set.
// @Tags			Import
// @Accept			multipart/form-data
// @Produce		json
// @Success		201			{object}	ImportResultResponse
// @Failure		400			{object}	ImportResultResponse
// @Failure		404			{object}	ImportResultResponse
// @Failure		500			{object}	ImportResultResponse
// @Param			file		formData	file	true	"File to import"
// @Param			accountId	query		string	true	"ID of the account to import the transactions for"
// @Param			onError		query		string	false	"What to do with invalid records: 'skip' them or 'abort' the import. Defaults to 'abort'."
// @Router			/v1/import [post]
func ImportCSV(c *gin.Context) {
	var query ImportQuery
	err := c.BindQuery(&query)
	if err != nil {
		s := errAccountIDParameter.Error()
		c.JSON(http.StatusBadRequest, ImportResultResponse{
			Error: &s,
		})
		return
	}

	if query.OnError == "" {
		query.OnError = onErrorAbort
	}

	if query.OnError != onErrorSkip && query.OnError != onErrorAbort {
		s := errOnErrorInvalid.Error()
		c.JSON(http.StatusBadRequest, ImportResultResponse{
			Error: &s,
		})
		return
	}

	previews, err := buildPreviews(c, query.AccountID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportResultResponse{
			Error: &s,
		})
		return
	}

	// With the abort policy, a single invalid record fails the whole
	// import before anything is written
	if query.OnError == onErrorAbort {
		for _, preview := range previews {
			if preview.Error != "" {
				s := fmt.Sprintf("%s: line %d: %s", errRecordInvalid.Error(), preview.Line, preview.Error)
				c.JSON(http.StatusBadRequest, ImportResultResponse{
					Error: &s,
				})
				return
			}
		}
	}

	result := ImportResult{
		Created: make([]Transaction, 0, len(previews)),
		Skipped: make([]importer.TransactionPreview, 0),
	}

	tx := models.DB.Begin()
	for _, preview := range previews {
		if preview.Error != "" || len(preview.DuplicateTransactionIDs) > 0 {
			result.Skipped = append(result.Skipped, preview)
			continue
		}

		transaction := preview.Transaction

		err = tx.Create(&transaction).Error
		if err != nil {
			tx.Rollback()
			s := err.Error()
			c.JSON(status(err), ImportResultResponse{
				Error: &s,
			})
			return
		}

		result.Created = append(result.Created, newTransaction(c, transaction))
	}

	err = tx.Commit().Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ImportResultResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusCreated, ImportResultResponse{Data: &result})
}
