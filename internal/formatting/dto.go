package formatting

import "encoding/base64"

type generateResponse struct {
	RunID     string `json:"runId"`
	Latex     string `json:"latex"`
	PDFBase64 string `json:"pdfBase64"`
	FileName  string `json:"fileName"`
}

type editRequest struct {
	Latex   string `json:"latex"`
	Prompt  string `json:"prompt"`
	Compile bool   `json:"compile"`
}

type editResponse struct {
	RunID     string `json:"runId"`
	Latex     string `json:"latex"`
	PDFBase64 string `json:"pdfBase64,omitempty"`
}

func toGenerateResponse(res Result) generateResponse {
	return generateResponse{
		RunID:     res.RunID,
		Latex:     res.Latex,
		PDFBase64: base64.StdEncoding.EncodeToString(res.PDF),
		FileName:  res.FileName,
	}
}

func toEditResponse(res EditResult) editResponse {
	out := editResponse{RunID: res.RunID, Latex: res.Latex}
	if len(res.PDF) > 0 {
		out.PDFBase64 = base64.StdEncoding.EncodeToString(res.PDF)
	}
	return out
}
