package utils

import (
	"bytes"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// InvoiceStorage uploads rendered invoice documents to an S3-compatible
// bucket.
type InvoiceStorage struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Folder    string
}

func (st *InvoiceStorage) client() *s3.S3 {
	sess := session.Must(session.NewSession(&aws.Config{
		Region:      aws.String(st.Region),
		Endpoint:    aws.String(st.Endpoint),
		Credentials: credentials.NewStaticCredentials(st.AccessKey, st.SecretKey, ""),
	}))
	return s3.New(sess)
}

// UploadInvoice stores the document under <folder>/<invoice_number>.txt
// and returns the object path.
func (st *InvoiceStorage) UploadInvoice(invoiceNumber string, body []byte) (string, error) {
	folder := st.Folder
	if folder == "" {
		folder = "invoices"
	}
	filePath := fmt.Sprintf("%s/%s.txt", folder, invoiceNumber)

	_, err := st.client().PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(st.Bucket),
		Key:           aws.String(filePath),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return "", err
	}
	return filePath, nil
}
