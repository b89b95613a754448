package workers

import (
	"log"
	"os"
	"sync"

	"github.com/camden-git/familyvault/config"
	"github.com/camden-git/familyvault/media"
	"github.com/camden-git/familyvault/repository"
	"github.com/camden-git/familyvault/utils"
)

// UploadJob asks the pool to post-process one uploaded image: thumbnail,
// EXIF capture metadata, and an optional face count.
type UploadJob struct {
	UploadID uint
	Filename string
	FullPath string
}

// UploadProcessor runs a small worker pool over uploaded images.
type UploadProcessor struct {
	JobQueue chan UploadJob
	Config   config.Config
	Uploads  repository.UploadRepository
	Faces    *media.FaceDetector
	Wg       sync.WaitGroup
	StopChan chan struct{}
	Pending  map[string]bool
	Mutex    sync.Mutex
}

func NewUploadProcessor(cfg config.Config, uploads repository.UploadRepository, faces *media.FaceDetector, queueSize, numWorkers int) *UploadProcessor {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}

	up := &UploadProcessor{
		JobQueue: make(chan UploadJob, queueSize),
		Config:   cfg,
		Uploads:  uploads,
		Faces:    faces,
		StopChan: make(chan struct{}),
		Pending:  make(map[string]bool),
	}

	up.Wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go up.worker(i)
	}
	log.Printf("started %d upload worker(s) with queue size %d", numWorkers, queueSize)

	return up
}

func (up *UploadProcessor) worker(id int) {
	defer up.Wg.Done()
	log.Printf("upload worker %d started", id)
	for {
		select {
		case job, ok := <-up.JobQueue:
			if !ok {
				log.Printf("upload worker %d stopping: job queue closed", id)
				return
			}
			up.processJob(job)
			up.Mutex.Lock()
			delete(up.Pending, job.Filename)
			up.Mutex.Unlock()

		case <-up.StopChan:
			log.Printf("upload worker %d stopping: stop signal received", id)
			return
		}
	}
}

func (up *UploadProcessor) processJob(job UploadJob) {
	if _, err := os.Stat(job.FullPath); os.IsNotExist(err) {
		log.Printf("uploaded file %s not found, skipping post-processing", job.FullPath)
		return
	}

	upload, err := up.Uploads.GetByFilename(job.Filename)
	if err != nil {
		log.Printf("ERROR loading upload record for %s: %v", job.Filename, err)
		return
	}

	if utils.IsRasterImage(job.Filename) {
		thumbPath, err := utils.GenerateThumbnail(job.FullPath, up.Config.ThumbnailsPath, up.Config.ThumbnailMaxSize)
		if err != nil {
			log.Printf("ERROR generating thumbnail for %s: %v", job.Filename, err)
		} else {
			upload.ThumbnailPath = &thumbPath
		}
	}

	meta, err := utils.GetCaptureMetadata(job.FullPath)
	if err != nil {
		log.Printf("ERROR reading capture metadata for %s: %v", job.Filename, err)
	} else if meta != nil {
		upload.TakenAt = meta.TakenAt
		upload.CameraMake = meta.CameraMake
		upload.CameraModel = meta.CameraModel
	}

	if up.Faces.Enabled() {
		count, err := up.Faces.CountFaces(job.FullPath)
		if err != nil {
			log.Printf("ERROR counting faces in %s: %v", job.Filename, err)
		} else {
			upload.FaceCount = &count
		}
	}

	if err := up.Uploads.Update(upload); err != nil {
		log.Printf("ERROR updating upload record for %s after processing: %v", job.Filename, err)
		return
	}
	log.Printf("finished post-processing upload: %s", job.Filename)
}

// QueueJob enqueues post-processing for an upload, deduplicating by filename.
func (up *UploadProcessor) QueueJob(job UploadJob) bool {
	up.Mutex.Lock()
	if up.Pending[job.Filename] {
		up.Mutex.Unlock()
		log.Printf("post-processing for %s already pending, skipping queue", job.Filename)
		return false
	}
	up.Pending[job.Filename] = true
	up.Mutex.Unlock()

	select {
	case up.JobQueue <- job:
		return true
	default:
		log.Printf("WARNING: upload job queue full, failed to queue job for: %s", job.Filename)
		up.Mutex.Lock()
		delete(up.Pending, job.Filename)
		up.Mutex.Unlock()
		return false
	}
}

// Stop signals all workers and waits for them to exit.
func (up *UploadProcessor) Stop() {
	log.Println("stopping upload processor...")
	close(up.StopChan)
	up.Wg.Wait()
	log.Println("all upload workers stopped")
}
