package sync

import (
	"context"
	"encoding/json"
	"fmt"

	"vsdc.GO/core/vsdc"
	"vsdc.GO/model/entity"
	checkpointRepo "vsdc.GO/model/repository/checkpoint"
)

// Feed select paths, relative to the service base URL.
const (
	pathStandardCodes  = "/code/selectCodes"
	pathItemClassCodes = "/itemClass/selectItemsClass"
	pathNotices        = "/notices/selectNotices"
	pathImportItems    = "/imports/selectImportItems"
	pathPurchaseSales  = "/trnsPurchase/selectTrnsPurchaseSales"
)

// Wire shapes of the reference feed payloads. The codes feed nests detail
// rows under their class; persistence flattens them to one row per code.
type codeClass struct {
	CdCls   string `json:"cdCls"`
	CdClsNm string `json:"cdClsNm"`
	DtlList []struct {
		Cd   string `json:"cd"`
		CdNm string `json:"cdNm"`
	} `json:"dtlList"`
}

type wireItemClass struct {
	ItemClsCd  string `json:"itemClsCd"`
	ItemClsNm  string `json:"itemClsNm"`
	ItemClsLvl int    `json:"itemClsLvl"`
	TaxTyCd    string `json:"taxTyCd"`
	MjrTgYn    string `json:"mjrTgYn"`
	UseYn      string `json:"useYn"`
}

type wireNotice struct {
	NoticeNo json.Number `json:"noticeNo"`
	Title    string      `json:"title"`
	Cont     string      `json:"cont"`
	RegDt    string      `json:"regDt"`
	ExpiryDt string      `json:"expiryDt"`
}

// persistStandardCodes flattens and upserts one page of the codes feed,
// returning the number of rows seen.
func (e *Engine) persistStandardCodes(data json.RawMessage) (int, error) {
	var page struct {
		ClsList []codeClass `json:"clsList"`
	}
	if err := json.Unmarshal(data, &page); err != nil {
		return 0, fmt.Errorf("decode clsList: %w", err)
	}
	var rows []entity.StandardCode
	for _, cls := range page.ClsList {
		for _, dtl := range cls.DtlList {
			rows = append(rows, entity.StandardCode{
				CodeClass:     cls.CdCls,
				CodeClassName: cls.CdClsNm,
				Code:          dtl.Cd,
				CodeName:      dtl.CdNm,
				UniqueKey:     cls.CdCls + "-" + dtl.Cd,
			})
		}
	}
	return len(rows), e.refs.UpsertStandardCodes(rows)
}

func (e *Engine) persistItemClassCodes(data json.RawMessage) (int, error) {
	var page struct {
		ItemClsList []wireItemClass `json:"itemClsList"`
	}
	if err := json.Unmarshal(data, &page); err != nil {
		return 0, fmt.Errorf("decode itemClsList: %w", err)
	}
	rows := make([]entity.ItemClassCode, 0, len(page.ItemClsList))
	for _, item := range page.ItemClsList {
		rows = append(rows, entity.ItemClassCode{
			ItemClassCd:    item.ItemClsCd,
			ItemClassName:  item.ItemClsNm,
			ItemClassLevel: item.ItemClsLvl,
			TaxTypeCode:    item.TaxTyCd,
			MajorTargetYN:  item.MjrTgYn,
			UseYN:          item.UseYn,
		})
	}
	return len(rows), e.refs.UpsertItemClassCodes(rows)
}

func (e *Engine) persistNotices(data json.RawMessage) (int, error) {
	var page struct {
		NoticeList []wireNotice `json:"noticeList"`
	}
	if err := json.Unmarshal(data, &page); err != nil {
		return 0, fmt.Errorf("decode noticeList: %w", err)
	}
	rows := make([]entity.Notice, 0, len(page.NoticeList))
	for _, n := range page.NoticeList {
		rows = append(rows, entity.Notice{
			NoticeID:    n.NoticeNo.String(),
			Title:       n.Title,
			Content:     n.Cont,
			PublishDate: n.RegDt,
			ExpiryDate:  n.ExpiryDt,
		})
	}
	return len(rows), e.refs.UpsertNotices(rows)
}

// referenceFeed binds a checkpoint name to its path and persistence step.
type referenceFeed struct {
	name    string
	path    string
	persist func(*Engine, json.RawMessage) (int, error)
}

var referenceFeeds = []referenceFeed{
	{checkpointRepo.FeedStandardCodes, pathStandardCodes, (*Engine).persistStandardCodes},
	{checkpointRepo.FeedItemClassCodes, pathItemClassCodes, (*Engine).persistItemClassCodes},
	{checkpointRepo.FeedNotices, pathNotices, (*Engine).persistNotices},
}

// pull posts a watermark request for one feed page.
func (e *Engine) pull(ctx context.Context, path, lastReqDt string) (*vsdc.Result, error) {
	app := e.app()
	payload := map[string]string{
		"tpin":      app.TPIN,
		"bhfId":     app.BranchID,
		"lastReqDt": lastReqDt,
	}
	return e.client.RetryPost(ctx, app.BaseURL+path, payload)
}
