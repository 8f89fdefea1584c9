package submit

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"

	"github.com/prism-talent/deal-desk/internal/dealapi"
	"github.com/prism-talent/deal-desk/internal/draft"
)

// ItemResult records the outcome of one follow-up request.
type ItemResult struct {
	Ref   string `json:"ref"`
	Error string `json:"error,omitempty"`
}

func (r ItemResult) OK() bool { return r.Error == "" }

// Result describes a submission whose deal was created. Follow-up failures
// are listed here rather than returned as errors.
type Result struct {
	Deal        dealapi.DealResponse `json:"deal"`
	Attachments []ItemResult         `json:"attachments"`
	Splits      []ItemResult         `json:"splits"`
	// Unmatched holds draft schedule ids that could not be paired with a
	// created schedule, so their splits were not sent.
	Unmatched []string `json:"unmatched,omitempty"`
}

// Failed counts follow-ups that did not go through, unmatched schedules
// included.
func (r *Result) Failed() int {
	n := len(r.Unmatched)
	for _, items := range [][]ItemResult{r.Attachments, r.Splits} {
		for _, it := range items {
			if !it.OK() {
				n++
			}
		}
	}
	return n
}

// Submit creates the deal and then runs the follow-up requests. An error is
// returned only when the draft is invalid or the deal itself could not be
// created; in that case nothing else has been sent.
func (c *Client) Submit(ctx context.Context, d *draft.Draft) (*Result, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid draft: %w", err)
	}
	d.Recalculate()
	for _, w := range d.Warnings() {
		c.logger().Warn("submitting unbalanced agent splits", "warning", w.String())
	}

	res := &Result{}
	if err := c.do(ctx, "POST", "/deals", d.CreateRequest(), &res.Deal); err != nil {
		return nil, fmt.Errorf("create deal: %w", err)
	}
	c.logger().Info("deal created", "deal_id", res.Deal.ID, "name", res.Deal.Name)

	res.Attachments = c.uploadAttachments(ctx, res.Deal.ID, d.Attachments)
	if d.SplitOnSchedule {
		res.Splits, res.Unmatched = c.saveScheduleSplits(ctx, d, res.Deal)
	}
	return res, nil
}

func (c *Client) uploadAttachments(ctx context.Context, dealID uint, files []draft.Attachment) []ItemResult {
	out := make([]ItemResult, len(files))
	var g errgroup.Group
	g.SetLimit(c.limit())
	for i, a := range files {
		g.Go(func() error {
			out[i] = ItemResult{Ref: a.FileName}
			if err := c.do(ctx, "POST", "/attachments", c.attachmentRequest(dealID, a), nil); err != nil {
				c.logger().Warn("attachment upload failed", "deal_id", dealID, "file", a.FileName, "error", err)
				out[i].Error = err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (c *Client) attachmentRequest(dealID uint, a draft.Attachment) dealapi.AttachmentUploadRequest {
	fileType := a.FileType
	if fileType == "" {
		fileType = mimetype.Detect(a.Data).String()
	}
	return dealapi.AttachmentUploadRequest{
		FileName:     a.FileName,
		FileType:     fileType,
		FileSize:     int64(len(a.Data)),
		Base64Data:   base64.StdEncoding.EncodeToString(a.Data),
		DealID:       dealID,
		Description:  a.Description,
		UploadedByID: c.UploaderID,
	}
}

func (c *Client) saveScheduleSplits(ctx context.Context, d *draft.Draft, deal dealapi.DealResponse) ([]ItemResult, []string) {
	matched, unmatched := Correlate(d.Schedules, deal.AllSchedules())
	for _, ref := range unmatched {
		c.logger().Warn("created schedule not found for draft schedule, splits not saved", "deal_id", deal.ID, "schedule_ref", ref)
	}

	out := make([]ItemResult, len(matched))
	var g errgroup.Group
	g.SetLimit(c.limit())
	for i, m := range matched {
		g.Go(func() error {
			out[i] = ItemResult{Ref: m.DraftID}
			batch, err := d.SplitBatch(m.DraftID)
			if err == nil {
				path := fmt.Sprintf("/deals/%d/schedules/%d/splits/batch", deal.ID, m.ScheduleID)
				err = c.do(ctx, "PUT", path, batch, nil)
			}
			if err != nil {
				c.logger().Warn("schedule split save failed", "deal_id", deal.ID, "schedule_id", m.ScheduleID, "error", err)
				out[i].Error = err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()
	return out, unmatched
}
